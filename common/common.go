// Package common holds small ambient helpers shared across the
// instance/opgraph/feaslp/support/scheduler packages: JSON file I/O and
// output-directory creation. It mirrors the house style of the codebase this
// project grew out of rather than introducing a fresh one.
package common

import (
	"encoding/json"
	"io/ioutil"
	"os"

	log "github.com/sirupsen/logrus"
)

// ToJSON marshals x to indented JSON. Fatal on marshal error: a marshal
// failure here means a data structure invariant was violated upstream.
func ToJSON(x interface{}) []byte {
	bytes, err := json.MarshalIndent(x, "", "\t")
	if err != nil {
		log.Fatalf("[common] error marshaling %T to JSON: %v", x, err)
	}
	return bytes
}

// FromFile reads JSON from path and unmarshals into x.
func FromFile(path string, x interface{}) {
	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("[common] error opening file %s: %v", path, err)
	}
	defer file.Close()

	bytes, _ := ioutil.ReadAll(file)
	if err := json.Unmarshal(bytes, x); err != nil {
		log.Fatalf(
			"[common] error unmarshaling json to output struct %T: %v (%s)",
			x,
			err,
			path,
		)
	}
}

// ToFile marshals x to JSON and writes it to path.
func ToFile(path string, x interface{}) {
	bytes := ToJSON(x)
	if err := ioutil.WriteFile(path, bytes, 0644); err != nil {
		log.Fatalf("[common] error writing struct %T to file: %v", x, err)
	}
}

// CreateDir makes path (and any missing parents), fatal on failure.
func CreateDir(path string) {
	if err := os.MkdirAll(path, 0755); err != nil {
		log.Fatalf("[common] error creating directory %s: %v", path, err)
	}
}
