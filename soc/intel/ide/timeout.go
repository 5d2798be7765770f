// Intel/PIIX IDE (ATA) driver
// https://github.com/usbarmory/tamago
//
// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package ide

import "time"

// DefaultTimeout bounds any polling wait (BSY, DRQ, bus-master ACT) for
// which a channel has not been given an explicit timeout via
// Channel.SetTimeout. A wedged drive fails the operation with a
// DriveError rather than hanging forever.
const DefaultTimeout = 1 * time.Second

// effectiveTimeout returns the timeout set with Channel.SetTimeout, or
// DefaultTimeout when none is set (zero).
func (c *channelHW) effectiveTimeout() time.Duration {
	if c.timeout != 0 {
		return c.timeout
	}

	return DefaultTimeout
}
