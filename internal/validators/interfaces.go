// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks the shape of incoming requests before the
// services apply business rules to them.
//
// A [Validator] validates a whole value, or only the named fields when a
// field list is given. Validation stops at the first violated rule, so the
// order of the field list decides which error the caller sees.
package validators

import "context"

// Validator validates arbitrary request values.
type Validator interface {
	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}
