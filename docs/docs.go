// Package docs SafeConnect SOS API.
//
// Documentation of the SafeConnect SOS dispatch API.
//
//     Schemes: https
//     BasePath: /
//     Version: 1.0.0
//     Host: https://sos-api.safeconnect.app
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
//     Security:
//     - basic
//
//    SecurityDefinitions:
//    basic:
//      type: basic
//
// swagger:meta
package docs

import (
	"github.com/safe-connect/sos-api/models"
)

// swagger:route GET /health health healthEndpointID
// Lists the healthchex of the web service api.
// responses:
//   200: healthResponse

// Shows the current health of the api. true means it is alive, false means it is not.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body models.HealthCheckResponse
}

// swagger:route GET /api/v1/sos/{case_ref} sos sosCaseByRef
// Gets a single SOS case by its code or id.
// responses:
//   200: sosCaseByRefResponse

// Shows a single SOS case for the given {case_ref}
// swagger:response sosCaseByRefResponse
type sosCaseByRefResponseWrapper struct {
	// in:body
	Body models.SosCase
}

// swagger:route GET /api/v1/sos/{case_ref}/queue sos responderQueueByCase
// Lists the responder queue of a case, nearest first.
// responses:
//   200: responderQueueResponse

// Shows the notified volunteers of the case and their outcomes
// swagger:response responderQueueResponse
type responderQueueResponseWrapper struct {
	// in:body
	Body []models.ResponderQueueEntry
}
