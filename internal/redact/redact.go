// Copyright 2026 The Tripdash Authors
// SPDX-License-Identifier: MIT

// Package redact provides utilities to strip sensitive values from strings
// before they appear in output, logs, or error messages.
package redact

import (
	"net/url"
	"os"
	"regexp"
	"strings"
	"sync"
)

// sensitiveEnvVars lists environment variable names whose values must never
// appear in output.
var sensitiveEnvVars = []string{
	"TRIPDASH_API_TOKEN",
	"HTTP_PROXY",
	"HTTPS_PROXY",
}

const placeholder = "[REDACTED]"

var (
	cachedSecrets []string
	cacheOnce     sync.Once
)

// urlPattern matches absolute http(s) URLs that may carry userinfo.
var urlPattern = regexp.MustCompile(`https?://[^\s"'<>()]+`)

func loadSecrets() {
	for _, envVar := range sensitiveEnvVars {
		val := os.Getenv(envVar)
		if val != "" && len(val) >= 4 {
			cachedSecrets = append(cachedSecrets, val)
		}
	}
}

// resetCache resets the cached secrets. Used by tests that change env vars
// between calls.
func resetCache() {
	cachedSecrets = nil
	cacheOnce = sync.Once{}
}

// ResetForTest resets the cached secrets so tests in other packages can
// verify redaction behavior after setting env vars with t.Setenv.
func ResetForTest() { resetCache() }

// String replaces any occurrence of a known sensitive environment variable
// value with "[REDACTED]" and masks the password of every URL with
// credentials. Secret values are cached on first call.
func String(s string) string {
	cacheOnce.Do(loadSecrets)
	for _, secret := range cachedSecrets {
		s = strings.ReplaceAll(s, secret, placeholder)
	}
	return urlPattern.ReplaceAllStringFunc(s, URL)
}

// URL masks the password in a URL's userinfo. Strings that do not parse or
// carry no password are returned unchanged.
func URL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); !ok {
		return raw
	}
	u.User = url.UserPassword(u.User.Username(), placeholder)
	return strings.Replace(u.String(), url.QueryEscape(placeholder), placeholder, 1)
}
