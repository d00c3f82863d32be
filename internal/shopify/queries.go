package shopify

const productsQuery = `
query GetProducts($first: Int!) {
  products(first: $first) {
    edges {
      node {
        id
        title
        handle
        description
        priceRange { minVariantPrice { amount currencyCode } }
        images(first: 5) { edges { node { url altText width height } } }
        variants(first: 1) {
          edges {
            node {
              id
              title
              availableForSale
              price { amount currencyCode }
              compareAtPrice { amount currencyCode }
            }
          }
        }
        tags
        productType
      }
    }
  }
}`

const productByHandleQuery = `
query GetProduct($handle: String!) {
  productByHandle(handle: $handle) {
    id
    title
    handle
    description
    priceRange {
      minVariantPrice { amount currencyCode }
      maxVariantPrice { amount currencyCode }
    }
    images(first: 10) { edges { node { url altText width height } } }
    variants(first: 100) {
      edges {
        node {
          id
          title
          availableForSale
          quantityAvailable
          price { amount currencyCode }
          compareAtPrice { amount currencyCode }
          selectedOptions { name value }
        }
      }
    }
    options { name values }
    tags
    productType
    vendor
  }
}`
