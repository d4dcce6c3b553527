package test

import (
	"testing"
)

// TestSuiteSetup verifies the full suite wiring comes up and tears down
func TestSuiteSetup(t *testing.T) {
	s := NewSuite(t)
	defer s.Cleanup()

	s.Require().NotNil(s.App)
	s.Require().NotNil(s.Server)
	s.Require().NotNil(s.APIClient)
	s.Require().NotNil(s.DB)

	health, err := s.APIClient.HealthCheck(s.Context())
	s.Require().NoError(err)
	s.Require().Equal("healthy", health["status"])
}
