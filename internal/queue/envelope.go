package queue

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"dining-concierge/internal/models"
)

// Envelope attribute names and the fixed body.
const (
	AttrCuisine    = "Cuisine"
	AttrLocation   = "Location"
	AttrDiningTime = "DiningTime"
	AttrDiningDate = "DiningDate"
	AttrPeopleNum  = "PeopleNum"
	AttrPhoneNum   = "PhoneNum"

	RequestBody = "Slots for the Restaurant"
)

var ErrMissingAttribute = errors.New("missing message attribute")

// EncodeRequest builds the message for a validated request.
func EncodeRequest(req models.DiningRequest, delay time.Duration) Message {
	return Message{
		Body:  RequestBody,
		Delay: delay,
		Attributes: map[string]Attribute{
			AttrCuisine:    {DataType: DataTypeString, StringValue: req.Cuisine},
			AttrLocation:   {DataType: DataTypeString, StringValue: req.Location},
			AttrDiningTime: {DataType: DataTypeString, StringValue: req.Time},
			AttrDiningDate: {DataType: DataTypeString, StringValue: req.Date},
			AttrPeopleNum:  {DataType: DataTypeNumber, StringValue: strconv.Itoa(req.PartySize)},
			AttrPhoneNum:   {DataType: DataTypeString, StringValue: req.Phone},
		},
	}
}

// DecodeRequest reads the six attributes back into a request.
func DecodeRequest(env *Envelope) (models.DiningRequest, error) {
	var req models.DiningRequest
	values := make(map[string]string, 6)
	for _, name := range []string{AttrCuisine, AttrLocation, AttrDiningTime, AttrDiningDate, AttrPeopleNum, AttrPhoneNum} {
		attr, ok := env.Attributes[name]
		if !ok {
			return req, fmt.Errorf("%w: %s", ErrMissingAttribute, name)
		}
		values[name] = attr.StringValue
	}

	people, err := strconv.Atoi(values[AttrPeopleNum])
	if err != nil {
		return req, fmt.Errorf("attribute %s: %w", AttrPeopleNum, err)
	}

	req = models.DiningRequest{
		Location:  values[AttrLocation],
		Cuisine:   values[AttrCuisine],
		PartySize: people,
		Date:      values[AttrDiningDate],
		Time:      values[AttrDiningTime],
		Phone:     values[AttrPhoneNum],
	}
	return req, nil
}
