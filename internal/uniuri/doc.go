// Package uniuri generates cryptographically secure random strings, used for group invite codes.
package uniuri
