package persistence

import (
	"encoding/json"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iota-uz/payroll-sync/modules/payroll/domain/aggregates/employee"
	"github.com/iota-uz/payroll-sync/modules/payroll/domain/schema"
)

// payloadToJSON encodes a payload as the jsonb document stored on the
// salary record: numeric fields as canonical decimal strings, text fields
// as strings, absent text omitted.
func payloadToJSON(payload schema.Payload) ([]byte, error) {
	doc := make(map[string]string, len(payload))
	for id, v := range payload {
		if v.IsAbsent() {
			continue
		}
		doc[string(id)] = v.String()
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, gerrors.Wrap(err, "marshal field values")
	}
	return raw, nil
}

// payloadFromJSON decodes a stored jsonb document back into typed values
// using the dictionary to recover each field's domain. Unknown keys are
// kept as text so older documents survive dictionary changes.
func payloadFromJSON(dict *schema.Dictionary, raw []byte) (schema.Payload, error) {
	if len(raw) == 0 {
		return schema.Payload{}, nil
	}
	var doc map[string]string
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, gerrors.Wrap(err, "unmarshal field values")
	}
	payload := make(schema.Payload, len(doc))
	for key, s := range doc {
		id := schema.FieldID(key)
		if f, ok := dict.Field(id); ok && f.Domain == schema.Numeric {
			d, err := decimal.NewFromString(s)
			if err != nil {
				return nil, gerrors.Wrapf(err, "field %s", key)
			}
			payload[id] = schema.NumericValue(d)
			continue
		}
		payload[id] = schema.TextValue(s)
	}
	return payload, nil
}

func toDomainEmployee(
	dict *schema.Dictionary,
	id uuid.UUID,
	jobNumber string,
	fullName string,
	username, password, iban *string,
	salaryRecordID *uuid.UUID,
	fieldValuesRaw []byte,
) (employee.Employee, error) {
	values, err := payloadFromJSON(dict, fieldValuesRaw)
	if err != nil {
		return employee.Employee{}, err
	}
	for id, s := range map[schema.FieldID]*string{
		schema.FieldUsername: username,
		schema.FieldPassword: password,
		schema.FieldIBAN:     iban,
	} {
		if s != nil {
			values[id] = schema.TextValue(*s)
		}
	}
	values[schema.FieldFullName] = schema.TextValue(fullName)
	values[schema.FieldJobNumber] = schema.TextValue(jobNumber)

	recordID := uuid.Nil
	if salaryRecordID != nil {
		recordID = *salaryRecordID
	}
	return employee.Hydrate(id, recordID, jobNumber, fullName, values), nil
}
