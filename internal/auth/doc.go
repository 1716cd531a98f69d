// Package auth provides account registration, password login and the group access gate.
//
// The group gate is evaluated against storage on every request; a role change takes
// effect on the next request of the affected user.
package auth
