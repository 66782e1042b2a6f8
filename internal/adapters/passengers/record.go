package passengers

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"carpool-route-service/internal/domain"
)

// Coordinate is a latitude or longitude as upstream systems send it: a JSON
// number, a numeric string, or null. Anything else decodes to "absent" so a
// single bad record cannot fail a whole page.
type Coordinate struct {
	Value *float64
}

func (c *Coordinate) UnmarshalJSON(b []byte) error {
	c.Value = nil
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case float64:
		c.Value = &v
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			c.Value = &f
		}
	}
	return nil
}

func (c Coordinate) MarshalJSON() ([]byte, error) {
	if c.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*c.Value)
}

// Address is the wire shape of homeAddress/workAddress.
type Address struct {
	Latitude  Coordinate `json:"latitude"`
	Longitude Coordinate `json:"longitude"`
	Address   string     `json:"address"`
}

// Record is the wire shape of a passenger.
type Record struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Status      string   `json:"status,omitempty"`
	HomeAddress *Address `json:"homeAddress"`
	WorkAddress *Address `json:"workAddress"`
}

func (a *Address) toDomain() *domain.AddressRecord {
	if a == nil {
		return nil
	}
	return &domain.AddressRecord{
		Latitude:  a.Latitude.Value,
		Longitude: a.Longitude.Value,
		Address:   a.Address,
	}
}

func (r Record) ToDomain() domain.PassengerRecord {
	return domain.PassengerRecord{
		ID:          r.ID,
		Name:        r.Name,
		HomeAddress: r.HomeAddress.toDomain(),
		WorkAddress: r.WorkAddress.toDomain(),
	}
}
