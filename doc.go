// This file is part of https://github.com/racingmars/charconv/
// Copyright 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

/*
Package charconv converts text between UTF-16 and legacy and Unicode byte
encodings: single-byte code pages (ASCII, ISO-8859, Windows, EBCDIC with
optional 3270 graphic escapes), double-byte and EUC encodings (Shift_JIS,
EUC-JP, EUC-KR, GB2312, GBK, Big5, host mixed SO/SI data), the ISO-2022
escape encodings (ISO-2022-JP, -KR, -CN) and the Unicode transforms
(UTF-8, CESU-8, UTF-16, UTF-32 with their byte order mark variants).

Conversion is incremental. A Decoder reads bytes from a ByteBuffer and
writes UTF-16 code units to a CharBuffer; an Encoder does the reverse.
Each call converts as much as fits and reports why it stopped:

	d := charconv.ShiftJIS.NewDecoder()
	for {
		cr := d.Decode(in, out, eof)
		switch {
		case cr.IsUnderflow():
			// read more into in, or finish with Flush
		case cr.IsOverflow():
			// drain out
		default:
			// cr.IsMalformed() or cr.IsUnmappable(), under the Report action
		}
	}

What happens to bad input is chosen per error kind with
OnMalformedInput and OnUnmappableCharacter: Report stops with an error
result, Ignore skips the input, Replace skips it and writes the
replacement. DecodeAll and EncodeAll run the whole sequence on in-memory
data, and NewReader, NewWriter and Encoding plug charsets into the
golang.org/x/text transform machinery.

Charsets are found by name with Lookup. Further table-driven charsets can
be loaded from ICU .ucm files or compiled bundles (see package table) and
added with Register.
*/
package charconv
