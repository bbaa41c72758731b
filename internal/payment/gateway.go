package payment

import (
	"encoding/json"
	"errors"
	"fmt"

	"darshan/internal/shared/config"
)

// Fields the gateway cannot work without
const (
	fieldEncData      = "ENCDATA"
	fieldMerchantCode = "MERCHANTCODE"
	fieldServiceID    = "SERVICEID"
)

// ErrGatewayNotConfigured is returned when no gateway URL is set for the
// running environment
var ErrGatewayNotConfigured = errors.New("payment gateway URL is not configured")

// ErrInvalidPaymentData is returned when the confirm payload lacks the
// fields the gateway requires
var ErrInvalidPaymentData = errors.New("payment data is missing required gateway fields")

// Data is the opaque field set the upstream confirm step hands back; every
// field is forwarded to the gateway as-is
type Data map[string]interface{}

// GatewayURL resolves the gateway endpoint for the configured environment
func GatewayURL(cfg *config.PaymentConfig) (string, error) {
	url := cfg.StageURL
	if cfg.Environment == "production" {
		url = cfg.ProdURL
	}
	if url == "" {
		return "", ErrGatewayNotConfigured
	}
	return url, nil
}

// ExtractData pulls the gateway field set out of a confirm payload. The
// fields appear either at the top level or nested one result deep; both
// shapes have been seen in the wild.
func ExtractData(raw json.RawMessage) (Data, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, fmt.Errorf("payment payload is not an object: %w", err)
	}

	if data, ok := decodeData(top); ok {
		return data, nil
	}
	if inner, ok := top["result"]; ok {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(inner, &nested); err == nil {
			if data, ok := decodeData(nested); ok {
				return data, nil
			}
		}
	}
	return nil, ErrInvalidPaymentData
}

// decodeData accepts a level iff all required gateway fields are present
// and non-empty there
func decodeData(fields map[string]json.RawMessage) (Data, bool) {
	for _, required := range []string{fieldEncData, fieldMerchantCode, fieldServiceID} {
		raw, ok := fields[required]
		if !ok || isEmptyValue(raw) {
			return nil, false
		}
	}
	data := make(Data, len(fields))
	for key, raw := range fields {
		var v interface{}
		if err := json.Unmarshal(raw, &v); err != nil || v == nil {
			continue
		}
		data[key] = v
	}
	return data, true
}

func isEmptyValue(raw json.RawMessage) bool {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return true
	}
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	default:
		return false
	}
}
