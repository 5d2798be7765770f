// Intel/PIIX IDE (ATA) driver
// https://github.com/usbarmory/tamago
//
// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package ide

import (
	"io"
	"log"
)

var logger = log.New(io.Discard, "ide: ", 0)

// SetOutput redirects driver diagnostics to w, typically a board's UART
// instance. The only diagnostic the driver logs is a channel whose PRDT
// cannot be set up during probing; discovery results and DMA errors are not
// logged.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}
