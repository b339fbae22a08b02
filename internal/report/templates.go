package report

import (
	_ "embed"
	"fmt"
	"os"
)

//go:embed templates/history.html
var historyTemplate string

//go:embed templates/bookmarks.html
var bookmarksTemplate string

// Footer closes the table body opened at the end of every template.
const Footer = "</tbody>\n</table>\n</body>\n</html>\n"

// Template returns the header text for mode. A non-empty path replaces the
// embedded template and must be readable.
func Template(mode Mode, path string) (string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s template: %w", mode, err)
		}
		return string(data), nil
	}

	switch mode {
	case History:
		return historyTemplate, nil
	case Bookmarks:
		return bookmarksTemplate, nil
	default:
		return "", fmt.Errorf("unknown report mode %q", mode)
	}
}
