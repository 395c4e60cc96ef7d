/*
	The REST API has a few central types that are useful to understand when
	adding new endpoints or changing existing ones.

	Model

	Models (rest/model) are structs that represent the objects the API reads
	and writes. Each has BuildFromService and ToService methods that convert
	to and from the stored documents in the model packages.

	Connector

	The Connector (rest/data) is the interface the routes use to reach the
	store. DBConnector implements it over the environment's store; tests
	build one over the in-memory store.

	RouteHandler

	Each route (rest/route) is a gimlet.RouteHandler: Factory returns a fresh
	copy for every request, Parse reads the path, query and body, and Run
	calls the Connector and shapes the response. Connector errors are turned
	into responses in one place, so handlers never pick status codes for
	failures themselves.
*/
package rest
