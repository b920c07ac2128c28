/*
Package pairtcr runs the file-level stages of TRA/TRB read pairing:

  Extract   R1, R2 FASTQ -> <prefix>_{TRA,TRB}_{1,2}.fq.gz
  Link      <prefix>_TRA_1, <prefix>_TRB_1 -> pair table
  Project   pair table, <prefix>_* -> <prefix>_matched_*_matched_{1,2}.fq.gz
  Join      pair table, TRA and TRB annotation tables -> final table

The annotation tables are produced by an external clone assembler run on the
projected reads. Each stage reads and writes whole files, so stages may be
rerun independently; identical inputs produce identical outputs.
*/
package pairtcr
