package api

import "github.com/go-playground/validator/v10"

// validate checks request payloads before they leave the client; the
// backend validates again, this just fails obvious mistakes locally.
var validate = validator.New()
