//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Builds the headless testbed into bin/testbed.
func (Build) Testbed() error {
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/testbed", "."), withStream()); err != nil {
		return err
	}
	return nil
}
