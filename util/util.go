// Package util loads and writes yaml config files and opens log files.
package util

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// OpenLog opens path for appending, falling back to io.Discard with a warning.
func OpenLog(path string, mode os.FileMode) (file io.Writer) {

	var err error
	file, err = os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %s\n", err.Error())
		file = io.Discard
	}

	return
}

// CloseLog closes a writer returned by OpenLog.
func CloseLog(file io.Writer) {

	actually, ok := file.(*os.File)
	if ok {
		actually.Close()
	}
}

type validator interface {
	Validate() error
}

// LoadConfig unmarshals the yaml file at path into cfg and validates it when cfg has a Validate method.
func LoadConfig(cfg any, path string) (err error) {

	data, err := os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read from %s", path)
		return
	}

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = errors.Wrapf(err, "failed to unmarshal %s", path)
		return
	}

	vld, ok := cfg.(validator)
	if !ok {
		return
	}
	err = vld.Validate()
	err = errors.Wrapf(err, "invalid config in %s", path)
	return
}

// WriteConfig marshals cfg to yaml at path.
func WriteConfig(cfg any, path string, mode os.FileMode) (err error) {

	data, err := yaml.Marshal(cfg)
	if err != nil {
		err = errors.Wrapf(err, "failed to marshal")
		return
	}

	err = os.WriteFile(path, data, mode)
	err = errors.Wrapf(err, "failed to write to %s", path)
	return
}

// SampleConfig writes data to path unless a file is already there.
// It reports whether the sample was written.
func SampleConfig(data []byte, path string, mode os.FileMode) (wrote bool, err error) {

	_, err = os.Stat(path)
	if err == nil {
		return // already have a cfg
	}

	err = os.WriteFile(path, data, mode)
	if err != nil {
		err = errors.Wrapf(err, "failed to write to %s", path)
		return
	}
	wrote = true
	return
}
