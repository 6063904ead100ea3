// Copyright ConnectHealth and each contributor.
// SPDX-License-Identifier: MIT

package service

// Service is implemented by every service that can report readiness.
type Service interface {
	ServiceReady() bool
}

// ServiceConfig is the configuration for the Services.
type ServiceConfig struct {
	// SkipEtagValidation is a flag to skip the Etag validation - only meant for local development.
	SkipEtagValidation bool
}
