/*
Package status renders rewrite results for humans.

	+-----------------+      +--------------+
	| rewrite.Report  +----->+  UserLogger  +----> terminal (pterm, color)
	| rules.Hazard    |      +------+-------+
	+-----------------+             |
	                                +----------> zerolog

🎯 Purpose:
- One aligned line per changed or failed file
- Colored unified diffs for --diff
- Summary and hazard warnings through pterm printers
*/
package status
