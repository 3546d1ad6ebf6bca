package app

// Exported for the external test package.
var (
	DataURI    = dataURI
	Facilities = facilities
)
