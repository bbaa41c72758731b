package payment

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
)

// The handoff page POSTs the gateway fields from the user's browser so the
// gateway sees the user's own IP and cookies. Script submits immediately;
// the button is the no-JS fallback.
const formTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Redirecting to payment…</title>
</head>
<body onload="document.getElementById('gatewayForm').submit()">
<p>Redirecting you to the payment gateway. Please do not refresh or press back.</p>
<form id="gatewayForm" method="POST" action="{{.Action}}">
{{- range .Fields}}
<input type="hidden" name="{{.Name}}" value="{{.Value}}">
{{- end}}
<noscript><button type="submit">Continue to payment</button></noscript>
</form>
</body>
</html>
`

var formTmpl = template.Must(template.New("gatewayForm").Parse(formTemplate))

type formField struct {
	Name  string
	Value string
}

// BuildForm renders the auto-submitting HTML page that forwards the
// gateway fields via the browser. Fields are emitted in sorted order so
// output is stable.
func BuildForm(action string, data Data) ([]byte, error) {
	if action == "" {
		return nil, ErrGatewayNotConfigured
	}

	fields := make([]formField, 0, len(data))
	for name, value := range data {
		fields = append(fields, formField{Name: name, Value: stringify(value)})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })

	var buf bytes.Buffer
	err := formTmpl.Execute(&buf, struct {
		Action string
		Fields []formField
	}{Action: action, Fields: fields})
	if err != nil {
		return nil, fmt.Errorf("failed to render gateway form: %w", err)
	}
	return buf.Bytes(), nil
}

// stringify flattens a JSON value to the string the gateway form expects
func stringify(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		// JSON numbers decode as float64; print integers without a point
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%v", x)
	case bool:
		return fmt.Sprintf("%t", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
