// SPDX-License-Identifier: MPL-2.0

package plugins

import "time"

// Clock returns the current time. time.Now is the production Clock.
type Clock func() time.Time
