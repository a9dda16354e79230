// Package hiev is a minimal client for the HIEv research data repository
// at the Hawkesbury Institute for the Environment.
//
// It covers the single endpoint this pipeline needs: creating a data file
// record by POSTing the file and its descriptive metadata as a multipart
// form to /data_files/api_create, authenticated with an auth_token query
// parameter. Metadata templates for the neutron probe raw and level 1
// artifacts live here too, so every upload carries the same fixed
// experiment, creator, and label fields the curators expect.
//
// The API token is passed on the URL by the remote API's design; callers
// and this package must keep request URLs out of logs.
package hiev
