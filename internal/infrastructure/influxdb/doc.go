// Package influxdb provides InfluxDB connectivity for Hearth Core.
//
// It wraps the official influxdb-client-go v2 library with Hearth-specific
// patterns for connection management, state recording, and health monitoring.
//
// # Purpose
//
// This package handles time-series storage of device attribute history.
// Every state change accepted by the device registry can be recorded as
// a point, tagged by device, attribute, and room, so that sensor trends
// (temperature, illuminance, motion activity) survive restarts even
// though live state is held in memory.
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    Enabled: true,
//	    URL:     "http://localhost:8086",
//	    Token:   "your-token",
//	    Org:     "hearth",
//	    Bucket:  "device_state",
//	}
//
//	client, err := influxdb.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	recorder := influxdb.NewRecorder(client, registry)
//	registry.AddListener(recorder)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are logged via a callback.
// Connection and health check errors are returned directly.
package influxdb
