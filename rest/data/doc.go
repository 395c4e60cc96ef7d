/*
	Adding to the Connector

	The Connector defines how the routes reach the stored instructors, class
	locations and classes. Its methods live in the data package in files named
	for the entity they serve (all class access is in data/class.go).

	To add to the Connector, add the method signature to the interface in
	data/impl.go and the implementation to DBConnector. Every method takes API
	models from rest/model and returns them, and reports failures as *Error
	values so the routes can choose a status code from the error's Kind alone.

	Database specific work belongs in the model packages. If a method needs a
	new query or a change to several collections, define it there (as
	model.CreateClass is) and only call it from the connector.
*/
package data
