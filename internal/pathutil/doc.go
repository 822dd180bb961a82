// Package pathutil validates file paths supplied by untrusted callers.
//
// [SanitizeOutputPath] cleans an output path, makes it absolute and rejects
// symlinks and directories, so a tool call cannot redirect a write:
//
//	safe, err := pathutil.SanitizeOutputPath(userProvidedPath)
//	if err != nil {
//	    return err // symlink, directory, or unresolvable path
//	}
package pathutil
