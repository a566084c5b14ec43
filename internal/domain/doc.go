// Package domain models PurpleAir sensor data and the US EPA PM2.5 Air
// Quality Index.
//
// # Data Source
//
// Readings come from the PurpleAir v1 sensors endpoint,
// https://api.purpleair.com/v1/sensors?show_only=<ids>&fields=<fields>. The
// response carries a "fields" array naming each column and a "data" array of
// positional rows. sensor_index is always the first column:
//
//	{
//	  "fields": ["sensor_index","name","temperature","pm2.5", ...],
//	  "data": [[108616,"Beehive",77,6.2, ...], ...]
//	}
//
// # AQI Conversion
//
// PM2.5 concentrations (µg/m³) are converted by linear interpolation over the
// EPA breakpoint table:
//
//	AQI       PM2.5
//	  0 - 50     0.0 - 12.1    good
//	 51 - 100   12.1 - 35.5    moderate
//	101 - 150   35.5 - 55.5    usg (unhealthy for sensitive groups)
//	151 - 200   55.5 - 150.5   unhealthy
//	201 - 300  150.5 - 250.5   veryunhealthy
//	301 - 400  250.5 - 350.5   hazardous
//	401 - 500  350.5 - 500.4   hazardous
//
// Each bracket excludes its lower bound, so 12.1 is still good. See
// https://community.purpleair.com/t/how-to-calculate-the-us-epa-pm2-5-aqi/877.
//
// Severity is derived from the index with strict less-than thresholds at 50,
// 100, 150, 200 and 300; an index of exactly 50 is moderate.
//
// # Temperature
//
// The sensor's temperature reads about 8°F above ambient because of heat
// from the electronics, so reports subtract [TemperatureOffset].
package domain
