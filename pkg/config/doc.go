/*
Package config loads rewrite configuration files for rewriterc.

	+-------------------+
	|  .rewriterc.yaml  |
	|  .json / .hcl     |
	+---------+---------+
	          |
	   Parser (by extension)
	          |
	+---------+---------+      +-----------------+
	|      Config       +----->+  rules.RuleSet  |
	+-------------------+      +-----------------+

🎯 Purpose:
- Turns a rule table written as data into a validated rules.RuleSet
- Resolves roots relative to the config file
- Fills defaults (utf-8, one worker, content scope)

🔍 Example:

	roots: [src]
	extensions: [.cs]
	rules:
	  - pattern: FEMEE.Infrastructure.Security.Settings
	    replacement: FEMEE.Application.Configurations
	  - replacement: namespace FEMEE.Application.Interfaces.Common
	    scope: line
	    anchor: "namespace "
	    replace_line: true
	    files: "FEMEE.Application/Interfaces/Common/**"

The same file in HCL:

	roots      = ["${config_dir}/src"]
	extensions = [".cs"]

	rule {
	  pattern     = "FEMEE.Infrastructure.Security.Settings"
	  replacement = "FEMEE.Application.Configurations"
	}
*/
package config
