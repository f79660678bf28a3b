package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/clipshare/internal/export"
	"github.com/dmitrijs2005/clipshare/internal/fieldcrypt"
	"github.com/dmitrijs2005/clipshare/internal/models"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

const previewWidth = 60

var (
	unreadableColor = color.New(color.FgRed, color.Bold).SprintFunc()
	partialColor    = color.New(color.FgYellow).SprintFunc()
	labelColor      = color.New(color.FgCyan).SprintFunc()
	hostColor       = color.New(color.FgGreen).SprintFunc()
	faint           = color.New(color.Faint).SprintFunc()
)

func itemMarker(it fieldcrypt.DecryptedItem) string {
	switch {
	case it.Unreadable():
		return unreadableColor(export.UnreadableMarker) + " "
	case !it.Decryptable():
		return partialColor("[partial]") + " "
	}
	return ""
}

func renderItemLine(it fieldcrypt.DecryptedItem) string {
	var sb strings.Builder
	sb.WriteString(itemMarker(it))
	fmt.Fprintf(&sb, "%s  %-4s  %s  ", labelColor(it.Label()), it.Kind, faint(it.Time().Local().Format("01-02 15:04")))

	if it.Kind == models.ItemKindFile {
		fmt.Fprintf(&sb, "%s (%s)", it.FileName.Value, formatSize(it.FileSize))
	} else {
		sb.WriteString(preview(it.Content.Value))
	}
	return sb.String()
}

// preview is the first line of s cut to previewWidth terminal cells.
func preview(s string) string {
	first, rest, multi := strings.Cut(s, "\n")
	if multi && strings.TrimSpace(rest) != "" {
		first += " …"
	}
	return runewidth.Truncate(first, previewWidth, "…")
}

func formatSize(f fieldcrypt.Field[int64]) string {
	if !f.OK() {
		return "unknown size"
	}
	n := f.Value
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func renderItemDetail(it fieldcrypt.DecryptedItem) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s%s\n", itemMarker(it), labelColor(it.Label()))
	fmt.Fprintf(&sb, "  kind:    %s\n", it.Kind)
	fmt.Fprintf(&sb, "  id:      %s\n", it.ID)
	fmt.Fprintf(&sb, "  device:  %s\n", it.DeviceID)
	fmt.Fprintf(&sb, "  created: %s\n", formatTime(it.CreatedAt, it.StoredAt))
	if it.UpdatedAt.Present() {
		fmt.Fprintf(&sb, "  updated: %s\n", formatTime(it.UpdatedAt, it.StoredAt))
	}

	if it.Kind == models.ItemKindFile {
		fmt.Fprintf(&sb, "  file:    %s\n", it.FileName.Value)
		fmt.Fprintf(&sb, "  type:    %s\n", it.FileMimeType.Value)
		fmt.Fprintf(&sb, "  size:    %s\n", formatSize(it.FileSize))
		return sb.String()
	}

	sb.WriteString("\n")
	sb.WriteString(it.Content.Value)
	sb.WriteString("\n")
	return sb.String()
}

func formatTime(f fieldcrypt.Field[time.Time], stored time.Time) string {
	t := f.Value
	if !f.Present() {
		t = stored
	}
	s := t.Local().Format("2006-01-02 15:04:05")
	if !f.OK() {
		s += " " + faint("(approximate)")
	}
	return s
}

func renderDevice(d models.Device, self bool) string {
	name := d.Name
	if !d.NameOK {
		name = faint(name)
	}
	line := fmt.Sprintf("%s  %s", name, faint(d.DeviceID))
	if d.IsHost {
		line += " " + hostColor("host")
	}
	if self {
		line += " (this device)"
	}
	return line
}
