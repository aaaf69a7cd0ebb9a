// Package app wires the startup insights tool together. NewApplication
// loads configuration from defaults, the YAML file and STARTUP_*
// environment variables, initializes logging and metrics, loads the
// dataset and builds the services, renderer and exporters on top of it.
//
// # Initialization Flow
//
//	1. Load and validate configuration
//	2. Resolve paths and create output directories
//	3. Initialize the structured logger
//	4. Validate and load the dataset (fatal on failure)
//	5. Partition regions and build the insights service
//	6. Create the chart renderer and exporters
//
// # Usage
//
//	application, err := app.NewApplication(ctx, app.Options{ConfigFile: "startupcli.yaml"})
//	if err != nil {
//	    return err
//	}
//	defer application.Close()
//
//	paths, err := application.Charts(ctx, "", nil, services.Filter{})
package app
