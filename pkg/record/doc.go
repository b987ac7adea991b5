// Package record decodes fixed-length ETL records.
//
// A Decoder pairs one schema.Schema with a charcode.Decoder and turns the bits
// at a bitfield.Reader's cursor into a Record: every field is read in layout
// order, then each field's transform (text, image, character code) is
// applied. Either all fields decode or an error is returned; no partial
// Record is ever produced.
//
// # Sessions
//
// A Session walks one file from start to end:
//
//	table, _ := codetable.LoadFile("euc_co59.dat")
//	s, _ := schema.Detect("ETL8G_01")
//	dec := record.NewDecoder(s, charcode.NewDecoder(table))
//
//	sess, err := record.OpenFile("ETL8G_01", dec, s.SkipRecords)
//	if err != nil {
//	    return err
//	}
//	it := sess.Iterator()
//	for it.Next() {
//	    rec := it.Record()
//	    fmt.Println(rec.Index, rec.Char())
//	}
//	if err := it.Err(); err != nil {
//	    return err
//	}
//
// Header records are skipped with the explicit skip count; the decoder itself
// has no notion of headers.
//
// # Errors
//
// Failures are returned as *DecodeError carrying the record ordinal (counted
// from the start of the file, header records included) and, when known, the
// field name. errors.Is matches the component sentinels:
//   - bitfield.ErrTruncatedRecord
//   - pixel.ErrImageSizeMismatch
//   - charcode.ErrInvalidCharacterCode
//   - charcode.ErrUnknownCharacterCode
//
// # Thread Safety
//
// Decoder, schema.Schema and codetable.Table are read-only and may be shared.
// A Session owns its reader and belongs to one goroutine.
package record
