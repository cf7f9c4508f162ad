/*Package interval implements a sorted-endpoint scanner over genomic
  coordinate ranges. tabular's grid spatial index (component C5) uses it to
  clip a tile bucket's stored rows down to the exact query box requested by a
  range lookup, instead of walking every row in the bucket one at a time.

  PosType holds a global linear-genome coordinate (spec §3); every position
  here is 0-based, and every interval is half-open [start, end).
*/
package interval
