/*
Package construct recognizes the fixed library constructs embedded in raw
paired reads and pulls out their UMIs.

A construct has the layout

  anchor · UMI1 · linker · UMI2 · flank · [AT]

with 7-base UMIs. The TRA construct is carried by R1; the TRB construct, whose
literals are the reverse complements of TRA's, is carried by R2. Each read is
searched as sequenced first, then as its reverse complement. The matched
orientation is reported in Match.Orientation so callers can tell the two
apart.

After a match, the construct-bearing mate is trimmed to the part of the read
lying downstream of the construct: the suffix after it for a forward match,
or the prefix before it (in sequencing orientation) for a reverse-complement
match.

Extraction is a pure function of the read sequence. A Classifier holds only
its immutable profile list, so reads can be classified by any number of
goroutines at once.
*/
package construct
