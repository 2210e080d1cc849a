//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Runs every package's unit tests with the race detector.
func (Test) Unit() error {
	if _, err := executeCmd("go", withArgs("test", "-race", "-count=1", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the triangle sort benchmarks.
func (Test) Bench() error {
	if _, err := executeCmd("go", withArgs("test", "-run", "^$", "-bench", ".", "./engine/renderer/sorting/"), withStream()); err != nil {
		return err
	}
	return nil
}
