// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// AutoWorkers is the Config.Workers sentinel meaning "use all available hardware parallelism".
const AutoWorkers = -1

// Config of a parallel Map.
type Config struct {
	// Workers is the number of workers to use. AutoWorkers uses runtime.NumCPU().
	// With 1 worker (or less) Map runs sequentially.
	Workers int

	// ProgressLabel, if not empty, enables a progress bar with this label on the standard error.
	ProgressLabel string
}

// DefaultConfig uses all CPUs and no progress bar.
func DefaultConfig() Config {
	return Config{Workers: AutoWorkers}
}

// NumWorkers resolves the AutoWorkers sentinel.
func (c Config) NumWorkers() int {
	if c.Workers == AutoWorkers {
		return runtime.NumCPU()
	}
	return c.Workers
}

// String implements fmt.Stringer. ParseConfig accepts its output when Workers is >= 1 or AutoWorkers and
// ProgressLabel has no commas.
func (c Config) String() string {
	workers := strconv.Itoa(c.Workers)
	if c.Workers == AutoWorkers {
		workers = "auto"
	}
	if c.ProgressLabel == "" {
		return "workers=" + workers
	}
	return fmt.Sprintf("workers=%s,progress=%s", workers, c.ProgressLabel)
}

// ParseConfig parses a configuration formatted as a comma-separated list of "key=value" pairs, starting from
// DefaultConfig. The keys are:
//
//   - "workers": an integer >= 1 or "auto".
//   - "progress": the progress bar label.
//
// Any other key is an error.
func ParseConfig(config string) (Config, error) {
	c := DefaultConfig()
	config = strings.TrimSpace(config)
	if config == "" {
		return c, nil
	}
	for _, part := range strings.Split(config, ",") {
		key, value, found := strings.Cut(part, "=")
		if !found {
			return c, errors.Errorf("parallel config %q: %q is not in the \"key=value\" format", config, part)
		}
		if err := c.Set(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return c, errors.WithMessagef(err, "parallel config %q", config)
		}
	}
	return c, nil
}

// Set one configuration key, as described in ParseConfig.
func (c *Config) Set(key, value string) error {
	switch key {
	case "workers":
		if strings.ToLower(value) == "auto" {
			c.Workers = AutoWorkers
			return nil
		}
		workers, err := strconv.Atoi(value)
		if err != nil || workers < 1 {
			return errors.Errorf("invalid value %q for \"workers\": it must be an integer >= 1 or \"auto\"", value)
		}
		c.Workers = workers
	case "progress":
		c.ProgressLabel = value
	default:
		return errors.Errorf("unknown key %q", key)
	}
	return nil
}
