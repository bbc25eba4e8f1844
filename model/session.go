// Package model holds the platform's data models and their hydration
// schemas. Every model registers a schema at package load, so decoded API
// payloads hydrate into these types by schema name.
package model

import "snowcord/rest"

// Session is the client context injected into every hydrated model. Models
// use it to reach the API and the CDN from their own methods.
type Session interface {
	Requester() *rest.Requester
	CDN() rest.CDN
}
