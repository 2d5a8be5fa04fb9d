package dto

type UpdatePreferenceRequest struct {
	Type         string `json:"type"`
	InAppEnabled *bool  `json:"in_app_enabled"`
	PushEnabled  *bool  `json:"push_enabled"`
}

type RegisterDeviceRequest struct {
	DeviceToken string `json:"device_token"`
	DeviceType  string `json:"device_type"`
	DeviceName  string `json:"device_name"`
	AppVersion  string `json:"app_version"`
}
