package steps

func (fc *FeatureContext) iCallTheHealthzEndpoint() error {
	return fc.keep(fc.apiDriver.GetHealthz())
}

func (fc *FeatureContext) theResponseShouldContainStatusInformation() error {
	var data map[string]any
	fc.require.NoError(fc.decodeBody(&data))

	fc.require.Contains(data, "status", "Status should be present")
	fc.require.Contains(data, "node", "Node should be present")

	status, ok := data["status"].(string)
	fc.require.True(ok, "Status should be a string")
	fc.require.Equal("success", status, "Status should be 'success'")

	fc.responseData = data
	return nil
}

func (fc *FeatureContext) theResponseShouldContainVersionInformation() error {
	info, ok := fc.responseData["node"].(map[string]any)
	fc.require.True(ok, "node should be an object")

	version, ok := info["version"].(string)
	fc.require.True(ok, "version should be a string")
	fc.require.NotEmpty(version, "version should not be empty")
	return nil
}
