/*
DESCRIPTION
  binding.go resolves a parsed scan header against the current frame
  header and the quantization/Huffman tables accumulated so far into a
  per-component componentBinding: everything mcu.go needs to decode one
  component's blocks without re-resolving table ids on every MCU.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package jpeg

import "github.com/pkg/errors"

// componentBinding is the fully-resolved decode configuration for one
// scan component.
type componentBinding struct {
	id     byte
	h, v   int
	qtable *quantTable
	dc     *huffmanTable
	ac     *huffmanTable

	// dcPred carries the running DC predictor across MCUs for this
	// component, reset to zero at the start of a scan and at every
	// restart marker.
	dcPred int32
}

// bindComponents resolves each scan component against the frame header's
// sampling/quantization declarations and the tables accumulated from DQT
// and DHT segments so far, returning one binding per component in the
// order the scan declares them.
func bindComponents(fh *frameHeader, sh *scanHeader, qtables map[byte]*quantTable, dcTables, acTables map[byte]*huffmanTable) ([]*componentBinding, error) {
	bindings := make([]*componentBinding, 0, len(sh.components))
	for _, sc := range sh.components {
		fc, err := fh.component(sc.cs)
		if err != nil {
			return nil, err
		}
		q, ok := qtables[fc.tq]
		if !ok {
			return nil, errors.Wrapf(ErrInvalidTableReference, "binding: no quantization table %d for component %d", fc.tq, fc.id)
		}
		dc, ok := dcTables[sc.td]
		if !ok {
			return nil, errors.Wrapf(ErrInvalidTableReference, "binding: no DC huffman table %d for component %d", sc.td, fc.id)
		}
		ac, ok := acTables[sc.ta]
		if !ok {
			return nil, errors.Wrapf(ErrInvalidTableReference, "binding: no AC huffman table %d for component %d", sc.ta, fc.id)
		}
		bindings = append(bindings, &componentBinding{
			id:     fc.id,
			h:      int(fc.h),
			v:      int(fc.v),
			qtable: q,
			dc:     dc,
			ac:     ac,
		})
	}
	return bindings, nil
}
