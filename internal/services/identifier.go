// identifier.go
//
// Client, project and employee management service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of clientsdb.
// clientsdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// clientsdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with clientsdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/localnerve/clientsdb/internal/metrics"
	"github.com/localnerve/clientsdb/internal/models"
	"github.com/localnerve/clientsdb/internal/repository"
	"github.com/localnerve/clientsdb/internal/types"
	"github.com/sirupsen/logrus"
)

var suffixPatterns = map[models.EntityKind]*regexp.Regexp{
	models.KindClient:   regexp.MustCompile(`^client-(\d+)$`),
	models.KindProject:  regexp.MustCompile(`^project-(\d+)$`),
	models.KindEmployee: regexp.MustCompile(`^JTC-(\d+)$`),
}

// IdentifierGenerator issues human readable business ids.
//
// Client and project ids continue from the most recently inserted row of
// their kind. Employee ids are the employee count plus one. Every call
// holds the kind's id_sequences row lock for the rest of the enclosing
// transaction, so concurrent creators of one kind are serialized by the
// store, and client and project numbers never go below the recorded
// high-water mark even after the latest row was deleted.
type IdentifierGenerator struct {
	log logrus.FieldLogger
}

// NewIdentifierGenerator creates a generator.
func NewIdentifierGenerator(log logrus.FieldLogger) *IdentifierGenerator {
	return &IdentifierGenerator{log: log}
}

// Next issues the next business id of kind. tx must be a transaction store.
func (g *IdentifierGenerator) Next(ctx context.Context, tx *repository.Store, kind models.EntityKind) (string, error) {
	seq, err := tx.Sequences.Lock(ctx, kind)
	if err != nil {
		return "", fmt.Errorf("failed to lock %s sequence: %w", kind, err)
	}

	var next uint64
	switch kind {
	case models.KindClient, models.KindProject:
		latest, found, err := latestBusinessID(ctx, tx, kind)
		if err != nil {
			return "", err
		}
		var current uint64
		if found {
			if current, err = ParseBusinessID(kind, latest); err != nil {
				return "", err
			}
		}
		next = max(current, seq.LastIssued) + 1

	case models.KindEmployee:
		count, err := tx.Employees.Count(ctx)
		if err != nil {
			return "", err
		}
		next = uint64(count) + 1

	default:
		return "", fmt.Errorf("unknown entity kind %q", kind)
	}

	businessID := kind.Format(next)
	if kind == models.KindEmployee {
		// Count based ids repeat after a deletion
		taken, err := tx.Employees.FindByUniqueField(ctx, "business_id", businessID)
		if err != nil {
			return "", err
		}
		if taken != nil {
			return "", types.DuplicateBusinessID(businessID)
		}
	}

	if err := tx.Sequences.Advance(ctx, kind, max(next, seq.LastIssued)); err != nil {
		return "", fmt.Errorf("failed to advance %s sequence: %w", kind, err)
	}

	metrics.RecordBusinessID(string(kind))
	g.log.WithFields(logrus.Fields{
		"kind":       kind,
		"businessId": businessID,
	}).Debug("issued business id")

	return businessID, nil
}

// ParseBusinessID returns the numeric suffix of a business id of kind.
func ParseBusinessID(kind models.EntityKind, businessID string) (uint64, error) {
	pattern, ok := suffixPatterns[kind]
	if !ok {
		return 0, fmt.Errorf("unknown entity kind %q", kind)
	}
	m := pattern.FindStringSubmatch(businessID)
	if m == nil {
		return 0, types.IDGeneration(businessID)
	}
	n, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return 0, types.IDGeneration(businessID)
	}
	return n, nil
}

func latestBusinessID(ctx context.Context, tx *repository.Store, kind models.EntityKind) (string, bool, error) {
	switch kind {
	case models.KindClient:
		latest, err := tx.Clients.FindLatest(ctx)
		if err != nil || latest == nil {
			return "", false, err
		}
		return latest.BusinessID, true, nil
	case models.KindProject:
		latest, err := tx.Projects.FindLatest(ctx)
		if err != nil || latest == nil {
			return "", false, err
		}
		return latest.BusinessID, true, nil
	}
	return "", false, fmt.Errorf("no insertion order for kind %q", kind)
}
