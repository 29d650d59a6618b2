package resolver

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// encodeAddresses renders an address list as a JSON array of strings.
// A nil list encodes as [] so readers never see null.
func encodeAddresses(addrs []string) ([]byte, error) {
	if addrs == nil {
		addrs = []string{}
	}
	return json.Marshal(addrs)
}

// decodeAddresses parses a JSON array of strings. Anything else, including
// arrays holding non-strings, is an error.
func decodeAddresses(payload []byte) ([]string, error) {
	var addrs []string
	if err := json.Unmarshal(payload, &addrs); err != nil {
		return nil, err
	}
	return addrs, nil
}
