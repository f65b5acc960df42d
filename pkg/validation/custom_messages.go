package validation

func CustomMessage(field string) map[string]string {
	var customValidationMessages = map[string]map[string]string{
		"Scope": {
			"oneof": "scope must be one of: pages, all",
		},
		"Hostname": {
			"required": "hostname must not be empty",
			"hostname": "hostname is not valid",
		},
		"Port": {
			"gt": "port must be a positive number",
		},
	}
	return customValidationMessages[field]
}
