// Package models defines the client-side data model of a SkillSync session:
// the signed-in user, the in-memory session record, pending OTP challenges
// and the device descriptor sent with verification requests.
package models
