// SPDX-FileCopyrightText: 2026 wpapi
// SPDX-License-Identifier: FSL-1.1-MIT

package login

import "strings"

// ConstructAttempts expands a site address as typed by a user into the
// candidate URLs that discovery should try, in order of preference:
//
//  1. the input itself
//  2. "https://" + input, when the input does not start with "http"
//  3. input + ".php", when the input ends with "wp-admin" (a trailing slash
//     is dropped first)
//
// The ".php" variant is derived from the input, never from the https variant.
func ConstructAttempts(input string) []string {
	attempts := []string{input}

	if !strings.HasPrefix(input, "http") {
		attempts = append(attempts, "https://"+input)
	}

	if strings.HasSuffix(input, "wp-admin") {
		attempts = append(attempts, input+".php")
	} else if strings.HasSuffix(input, "wp-admin/") {
		attempts = append(attempts, strings.TrimSuffix(input, "/")+".php")
	}

	return attempts
}
