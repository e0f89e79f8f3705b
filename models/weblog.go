// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// LogLevel is the severity of an audit event. The numeric values are persisted.
type LogLevel int

const (
	LogLevelDebug       LogLevel = 1
	LogLevelInformation LogLevel = 2
	LogLevelWarning     LogLevel = 3
	LogLevelError       LogLevel = 4
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "debug"
	case LogLevelInformation:
		return "information"
	case LogLevelWarning:
		return "warning"
	case LogLevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Weblog is one append-only audit event.
type Weblog struct {
	ID         int64     `json:"id"`
	LogTime    time.Time `json:"log_time"`
	Level      LogLevel  `json:"log_level"`
	Message    string    `json:"log_message"`
	Info1      string    `json:"log_info1,omitempty"`
	Info2      string    `json:"log_info2,omitempty"`
	StackTrace string    `json:"stack_trace,omitempty"`
	UserID     *int64    `json:"user_id,omitempty"`
}

func (w Weblog) TableName() string {
	return "weblog"
}
