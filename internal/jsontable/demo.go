package jsontable

// DemoJSON is a single watch-directory-like object used as sample data.
const DemoJSON = `{
    "name": "some name here",
    "label": "some label",
    "path": "some path",
    "refresh_interval": 5
}`

// DemoData returns DemoJSON as renderer input with no explicit schema.
func DemoData() TableData {
	items, err := DecodeObjects([]byte(DemoJSON), false)
	if err != nil {
		panic(err)
	}
	return TableData{Items: items}
}
