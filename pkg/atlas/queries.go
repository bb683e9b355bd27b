package atlas

// entityFields selects the entity payload for every kind the viewer renders.
const entityFields = `
            entity {
              kind: __typename
              ... on Text {
                id
                name
                body
              }
              ... on Link {
                id
                name
                url
              }
              ... on Collection {
                id
                slug
                name
              }
              ... on Image {
                id
                name
                originalUrl: url
                width
                height
                placeholder: resized(width: 50, height: 50, blur: 10) {
                  urls {
                    src: _1x
                  }
                }
                thumb: resized(width: 1400, height: 1400) {
                  width
                  height
                  urls {
                    _1x
                    _2x
                  }
                }
              }
            }`

const slidesQuery = `
  query SlidesQuery($id: ID!, $page: Int, $per: Int) {
    root: object {
      ... on Collection {
        collection(id: $id) {
          id
          slug
          title
          counts {
            contents
          }
          contents(page: $page, per: $per) {
            id` + entityFields + `
          }
        }
      }
    }
  }
`

const collectionContentQuery = `
  query CollectionContentQuery($collectionId: ID!, $id: ID!) {
    root: object {
      ... on Collection {
        collection(id: $collectionId) {
          id
          slug
          title
          content(id: $id) {
            id
            next {
              id
            }
            previous {
              id
            }` + entityFields + `
          }
        }
      }
    }
  }
`
