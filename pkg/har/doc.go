// Package har models HTTP Archive (HAR 1.2) captures.
//
// A capture is a Document whose Log holds the chronological list of network
// exchanges recorded by a browser. Request and Response are pointers so that
// malformed captures (entries missing one side of the exchange) survive decoding
// and can be excluded later by the filter pipeline instead of failing the whole
// document.
//
// # Usage
//
//	doc, err := har.Load("session.har")
//	if err != nil {
//	    var verr *har.ValidationError
//	    if errors.As(err, &verr) {
//	        // not a capture; report and stop
//	    }
//	}
//
//	out := har.NewDocument(entries)
//	data, err := har.Encode(out)
//
// Documents written by this package always carry the fixed creator returned
// by Creator and HAR version 1.2.
package har
