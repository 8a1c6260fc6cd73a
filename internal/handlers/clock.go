package handlers

import "time"

// timeNow is swapped in tests to pin the current period.
var timeNow = time.Now
