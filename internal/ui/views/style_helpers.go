package views

import (
	"github.com/lazychart/lazychart/internal/ui/components/candlechart"
	"github.com/lazychart/lazychart/internal/ui/components/filterinput"
	"github.com/lazychart/lazychart/internal/ui/components/frame"
	"github.com/lazychart/lazychart/internal/ui/components/metricchart"
	"github.com/lazychart/lazychart/internal/ui/components/table"
	filterdialog "github.com/lazychart/lazychart/internal/ui/dialogs/filter"
	inspectdialog "github.com/lazychart/lazychart/internal/ui/dialogs/inspect"
)

func frameStylesFromTheme(styles Styles) frame.Styles {
	return frame.Styles{
		Focused: frame.StyleState{
			Title:  styles.Title,
			Muted:  styles.Muted,
			Filter: styles.FilterFocused,
			Border: styles.FocusBorder,
		},
		Blurred: frame.StyleState{
			Title:  styles.Title,
			Muted:  styles.Muted,
			Filter: styles.FilterBlurred,
			Border: styles.BorderStyle,
		},
	}
}

func filterDialogStylesFromTheme(styles Styles) filterdialog.Styles {
	return filterdialog.Styles{
		Title:       styles.Title,
		Border:      styles.FocusBorder,
		Prompt:      styles.Text,
		Text:        styles.Text,
		Placeholder: styles.Muted,
		Cursor:      styles.Text,
	}
}

func filterInputStylesFromTheme(styles Styles) filterinput.Styles {
	return filterinput.Styles{
		Prompt:      styles.Text,
		Text:        styles.Text,
		Placeholder: styles.Muted,
		Cursor:      styles.Text,
	}
}

func tableStylesFromTheme(styles Styles) table.Styles {
	return table.Styles{
		Text:           styles.Text,
		Muted:          styles.Muted,
		Header:         styles.TableHeader,
		Selected:       styles.TableSelected,
		Separator:      styles.TableSeparator,
		ScrollbarTrack: styles.ScrollbarTrack,
		ScrollbarThumb: styles.ScrollbarThumb,
	}
}

func inspectStylesFromTheme(styles Styles) inspectdialog.Styles {
	return inspectdialog.Styles{
		Title:           styles.Title,
		Label:           styles.MetricLabel,
		Value:           styles.Text,
		Muted:           styles.Muted,
		Border:          styles.BorderStyle,
		FocusBorder:     styles.FocusBorder,
		JSON:            styles.Text,
		JSONKey:         styles.JSONKey,
		JSONString:      styles.JSONString,
		JSONNumber:      styles.JSONNumber,
		JSONBool:        styles.JSONBool,
		JSONNull:        styles.JSONNull,
		JSONPunctuation: styles.JSONPunctuation,
	}
}

func candleStylesFromTheme(styles Styles) candlechart.Styles {
	return candlechart.Styles{
		Bull:      styles.CandleBull,
		Bear:      styles.CandleBear,
		Muted:     styles.ChartMuted,
		Crosshair: styles.ChartCrosshair,
	}
}

func metricStylesFromTheme(styles Styles) metricchart.Styles {
	return metricchart.Styles{
		Axis:  styles.ChartAxis,
		Label: styles.ChartLabel,
	}
}
