// Package file persists the shopping list and the user settings as JSON
// documents in a data directory.
//
// Files:
//   - entries.json: {"entries":[{"is_checked":...,"text":...}]}
//   - settings.json: {"settings":{...}}
//
// Both are written pretty-printed and overwritten in place. A missing file
// reads as domain.ErrNotFound.
package file
