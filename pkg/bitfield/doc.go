// Package bitfield reads fixed-layout bit fields from a byte buffer.
//
// A record layout is a slice of Field values. Each field has a Kind that
// fixes its width in bits:
//
//	UInt(n)          n-bit unsigned integer, most significant bit first
//	Bytes(n)         n octets copied out as []byte
//	Hex(n)           n bits rendered as lowercase hex digits
//	Pad(n)           n bits skipped, no value
//	Repeat(c, kind)  kind read c times, values returned as []any
//
// The layouts mirror the bitstring format strings used to describe the ETL
// character database, e.g. "uint:16,hex:16,bytes:4,bytes:504" becomes
//
//	[]bitfield.Field{
//	    {Name: "Serial Sheet Number", Kind: bitfield.UInt(16)},
//	    {Name: "JIS Kanji Code", Kind: bitfield.Hex(16)},
//	    {Name: "JIS Typical Reading", Kind: bitfield.Bytes(4)},
//	    {Name: "Image Data", Kind: bitfield.Bytes(504)},
//	}
//
// # Cursor
//
// Reader keeps its position in bits. Read checks the total width of the
// layout against the remaining bits before consuming anything and fails with
// ErrTruncatedRecord when the stream is too short, so a successful Read always
// advances the cursor by exactly TotalBits(fields), independent of the data.
//
// # Thread Safety
//
// A Reader belongs to a single decode session. Field and Kind values are
// immutable and may be shared freely.
package bitfield
