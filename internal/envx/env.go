// Package envx overlays configuration values from the process environment.
//
// A ".env" file in the working directory (or any file passed to Load) is read
// first with godotenv; variables already present in the environment win over
// values from the file.
package envx

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the given dotenv files into the process environment, skipping
// files that do not exist. With no arguments it reads ".env".
func Load(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// String sets *dst to the value of key when the variable is set and non-empty.
func String(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// Int sets *dst when key holds a valid integer. Invalid values are reported.
func Int(key string, dst *int) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return errors.New(key + ": invalid integer " + strconv.Quote(v))
	}
	*dst = n
	return nil
}

// Bool sets *dst when key holds a value accepted by strconv.ParseBool.
func Bool(key string, dst *bool) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return errors.New(key + ": invalid boolean " + strconv.Quote(v))
	}
	*dst = b
	return nil
}

// Duration sets *dst when key holds a Go duration string such as "168h".
func Duration(key string, dst *time.Duration) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return errors.New(key + ": invalid duration " + strconv.Quote(v))
	}
	*dst = d
	return nil
}

// List sets *dst to the comma-separated, trimmed, non-empty items of key.
func List(key string, dst *[]string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*dst = out
}
