package rdat

import "fmt"

// WordReceiver assembles 10-bit line words into 36-word blocks, performing
// the ten-to-eight symbol decode along the way.
//
// In dump mode (the raw decode command) it prints each completed block as
// hex instead of forwarding it.
type WordReceiver struct {
	dump     bool
	block    Block
	receiver BlockReceiver
}

// NewWordReceiver returns a word receiver. With dump set, completed blocks
// are printed instead of delivered; receiver may then be nil.
func NewWordReceiver(receiver BlockReceiver, dump bool) *WordReceiver {
	return &WordReceiver{dump: dump, receiver: receiver}
}

// ReceiveWord consumes one line word from the deframer.
func (w *WordReceiver) ReceiveWord(word int) {
	raw := uint16(word & 0x3ff)
	flagged := DecodeWord(word)

	if raw&0x1ff == SyncWord && w.block.Size() > 0 {
		// A sync word in mid-block means the previous block was cut
		// short. Hand the partial block on anyway; the track layer
		// copes with short blocks.
		w.deliver()
	}

	if w.block.AddWord(raw, flagged) {
		w.deliver()
	}
}

func (w *WordReceiver) deliver() {
	if w.dump {
		w.dumpBlock()
	} else if w.receiver != nil {
		w.receiver.ReceiveBlock(&w.block)
	}
	w.block.Reset()
}

// dumpBlock prints the current block: raw words on one line, flagged bytes
// on the next, with a dot marking each byte that failed symbol decode.
func (w *WordReceiver) dumpBlock() {
	words := w.block.LineWords()
	bytes := w.block.FlaggedBytes()

	fmt.Printf("BLOCK (%d words)\n ", len(words))
	for _, lw := range words {
		fmt.Printf(" %03x", lw)
	}
	fmt.Printf("\n ")
	for _, fb := range bytes {
		if fb&InvalidFlag != 0 {
			fmt.Printf(" .%02x", fb&0xff)
		} else {
			fmt.Printf("  %02x", fb&0xff)
		}
	}
	fmt.Println()
}

// TrackDetected notes that a track is starting or ending. Either way the
// current partial block cannot continue across the boundary.
func (w *WordReceiver) TrackDetected(start bool) {
	if w.block.Size() > 0 {
		w.deliver()
	}
	if !w.dump && w.receiver != nil {
		w.receiver.TrackDetected(start)
	}
}

// Stop notes that all input is finished.
func (w *WordReceiver) Stop() {
	if !w.dump && w.receiver != nil {
		w.receiver.Stop()
	}
}
