package di

// ComponentNames holds the container keys of typedhttp's shared components.
type ComponentNames struct {
	Config        string
	Logger        string
	ClientFactory string
	Metrics       string
}

// Names contains the container keys used by typedhttp.
var Names = ComponentNames{
	Config:        "config",
	Logger:        "logger",
	ClientFactory: "client_factory",
	Metrics:       "client_metrics",
}
