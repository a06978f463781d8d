// client.go
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

package models

import (
	"time"

	"gorm.io/datatypes"
)

// Client owns its contact persons and projects; deleting it removes both.
type Client struct {
	ID               uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	BusinessID       string          `gorm:"size:32;not null;uniqueIndex" json:"clientId"`
	Name             string          `gorm:"size:255;not null" json:"clientName"`
	RelationshipDate datatypes.Date  `json:"clientRelationshipDate"`
	CreatedAt        time.Time       `json:"-"`
	UpdatedAt        time.Time       `json:"-"`
	ContactPersons   []ContactPerson `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"contactPersons"`
	Projects         []Project       `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"projects"`
}

// ContactPerson exists only attached to exactly one client.
type ContactPerson struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Email       string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Phone       string    `gorm:"size:64" json:"phone"`
	Designation string    `gorm:"size:255" json:"designation"`
	ClientID    uint      `gorm:"not null;index" json:"clientId"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// TableName overrides the table name for ContactPerson
func (ContactPerson) TableName() string {
	return "contact_persons"
}
