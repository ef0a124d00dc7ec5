package filestore

// ContentTypeOctetStream is the MIME type of content whose type is unknown.
const ContentTypeOctetStream = "application/octet-stream"
