// Package models holds the shared domain types: directory guests, per-guest
// RSVP responses, the editable household roster, and the simplified track
// shapes exchanged with the music page.
//
// Guests are read-only once seeded. GuestResponse rows are keyed by guest id
// with a uniqueness constraint, so the store-level upsert is what makes RSVP
// resubmission idempotent.
package models
