package model

import (
    "database/sql/driver"
    "encoding/json"
    "fmt"
    "time"
)

// Icon types the site knows how to draw for an activity card.
const (
    IconPaddle = "paddle"
    IconDinner = "dinner"
)

// StringList is an ordered list of strings stored as a JSON array column.
// A nil list is written as [] and NULL reads back as an empty list.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
    if l == nil {
        return "[]", nil
    }
    b, err := json.Marshal([]string(l))
    if err != nil {
        return nil, err
    }
    return string(b), nil
}

func (l *StringList) Scan(src interface{}) error {
    var raw []byte
    switch v := src.(type) {
    case nil:
        *l = StringList{}
        return nil
    case []byte:
        raw = v
    case string:
        raw = []byte(v)
    default:
        return fmt.Errorf("cannot scan %T into StringList", src)
    }
    var out []string
    if err := json.Unmarshal(raw, &out); err != nil {
        return fmt.Errorf("scan StringList: %w", err)
    }
    if out == nil {
        out = []string{}
    }
    *l = out
    return nil
}

// Activity is an optional experience offered alongside a stay, such as a
// paddle tour or a private dinner.  Price is informational (COP) and is not
// added to reservation totals.
type Activity struct {
    ID               uint64     // activities.id
    Name             string     // activities.name
    Description      string     // activities.description
    ShortDescription string     // activities.short_description
    Price            int64      // activities.price
    Duration         string     // activities.duration
    Location         string     // activities.location
    Includes         StringList // activities.includes (JSON)
    Images           StringList // activities.images (JSON)
    IconType         string     // activities.icon_type
    IsActive         bool       // activities.is_active
    CreatedAt        time.Time  // activities.created_at
    UpdatedAt        time.Time  // activities.updated_at
}
