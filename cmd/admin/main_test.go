package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunRejectsUnknownCommands(t *testing.T) {
	assert.Error(t, run(nil))
	assert.ErrorContains(t, run([]string{"migrate"}), "unknown command")
}

func TestCreateSuperuserRequiresEmail(t *testing.T) {
	assert.ErrorContains(t, run([]string{"createsuperuser", "-password", "x"}), "-email is required")
}

func TestCreateSuperuserNeedsPostgres(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	err := run([]string{"createsuperuser", "-email", "root@example.com", "-password", "x"})
	assert.ErrorContains(t, err, "STORAGE_DRIVER=postgres")
}
