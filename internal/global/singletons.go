package global

// ShowTimingLogs enables the debug timing logs of `timingutils`.
var ShowTimingLogs bool
