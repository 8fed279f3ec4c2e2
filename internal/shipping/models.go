package shipping

import "time"

type Info struct {
	ID               string  `json:"_id"`
	UserID           string  `json:"user"`
	Address          string  `json:"address"`
	City             string  `json:"city"`
	State            string  `json:"state"`
	Country          string  `json:"country"`
	PinCode          string  `json:"pinCode"`
	PhoneNo          string  `json:"phoneNo"`
	AlternatePhoneNo *string `json:"alternatePhoneNo,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
