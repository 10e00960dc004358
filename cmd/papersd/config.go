package main

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// readConfig reads a TOML configuration file into a generic map, mirroring
// the teacher's cmd/revad/internal/config.Read.
func readConfig(r io.Reader) (map[string]interface{}, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "config: error reading from reader")
	}
	v := map[string]interface{}{}
	if err := toml.Unmarshal(data, &v); err != nil {
		return nil, errors.Wrap(err, "config: error decoding toml data")
	}
	return v, nil
}

// readConfigFile opens path and decodes it, returning an empty map (so
// defaults apply) when path is empty.
func readConfigFile(path string) (map[string]interface{}, error) {
	if path == "" {
		return map[string]interface{}{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "config: error opening file")
	}
	defer f.Close()
	return readConfig(f)
}
