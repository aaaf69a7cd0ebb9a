// Package shared holds code used across packages that belongs to no single
// layer.
//
// The testutil subpackage provides:
//
//	- BufferedSlogHandler and NewTestLogger to capture and assert on logs
//	- StartupsCSV and file writers for dataset and config fixtures
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    dir := t.TempDir()
//	    data := testutil.WriteDataset(t, dir, testutil.StartupsCSV)
//	    ...
//	    testutil.AssertNoErrors(t, logs)
//	}
package shared
