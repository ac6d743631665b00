// Package fixtures holds the static seed data consulted only when no
// persisted state exists yet.
package fixtures

import _ "embed"

//go:embed products.json
var Products []byte

//go:embed orders.json
var Orders []byte

//go:embed users.json
var Users []byte
