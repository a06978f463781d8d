// common.go
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

package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/clientsdb/internal/types"
)

// parseIDParam reads a numeric store key from the named route parameter.
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Params(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, &types.DomainError{
			Kind:    types.KindInvalidIDFormat,
			Message: fmt.Sprintf("Invalid %s format: %q", name, raw),
			Err:     err,
		}
	}
	return uint(id), nil
}

// bindJSON decodes the request body into out.
func bindJSON(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return &types.CustomError{
			Code:    fiber.StatusBadRequest,
			Message: "Request body is required",
			Type:    "body",
		}
	}
	if err := c.BodyParser(out); err != nil {
		return &types.CustomError{
			Code:    fiber.StatusBadRequest,
			Message: fmt.Sprintf("Invalid request body: %v", err),
			Type:    "body",
		}
	}
	return nil
}
